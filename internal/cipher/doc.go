// Package cipher implements the mathematics and state machine of a rotor
// cipher machine.
//
// The package is leaf-first:
//
//   - Alphabet: a dense bijection between characters and 0..size-1.
//   - Permutation: a bijection over an alphabet built from cycle notation,
//     with forward and inverse application.
//   - Rotor: one type with three kinds (stationary, stepping, reflector)
//     carrying a permutation plus position and ring state.
//   - Machine: an ordered rotor stack plus plugboard; steps the rotors and
//     runs the signal path for each symbol.
//
// # Signal Path
//
// For every symbol the machine first steps its rotors, then:
//
//  1. Plugboard substitution.
//  2. Forward through every slot, rightmost to leftmost, reflector included.
//  3. Backward through every slot, leftmost to rightmost, reflector skipped.
//  4. Plugboard substitution.
//
// Encoding and decoding are the same operation: converting ciphertext with
// a machine in the starting state of the encryption yields the plaintext.
//
// # Errors
//
// Every failure is a *ConfigurationError carrying an ErrorCode. Nothing is
// recovered or corrected inside the package.
//
// Alphabet and Permutation values are immutable and may be shared freely.
// Rotor and Machine values are mutable and have a single owner.
package cipher

// Package session processes message streams through a configured machine.
//
// A stream interleaves settings lines and message lines:
//
//	* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)
//	FROM HIS SHOULDER HIAWATHA
//
// Each settings line reconfigures the machine and starts a new message.
// Message lines are converted and written in five-letter groups. Processing
// is strictly sequential: the machine state after one line is the state
// the next line starts from.
package session

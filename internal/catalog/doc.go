// Package catalog loads rotor catalogs and settings lines and turns them
// into cipher machines.
//
// Three catalog formats share one representation, ir.Catalog:
//
//   - text: the whitespace-separated format (ParseText, FormatText)
//   - CUE:  a closed CUE document (LoadCUE, CompileCUE)
//   - YAML: a strict YAML document (ParseYAML, FormatYAML)
//
// Load picks the format from the file extension. Validate reports every
// semantic problem in a catalog at once; Build creates the machine.
// ParseSettings and Apply handle the "* ..." lines that configure a machine
// between messages.
package catalog

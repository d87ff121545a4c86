// Package expand implements the textual substitution engine shared by project
// macros ($(Name)) and item metadata (%(Name)). A single recursive
// scan-and-replace algorithm is parameterized by the token prefix and a
// resolver callback, so both namespaces run through identical parsing rules.
package expand

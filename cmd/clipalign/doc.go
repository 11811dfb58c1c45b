// Command clipalign aligns an edited subtitle track against its reference
// track and reports cut segments on the reference timeline.
package main

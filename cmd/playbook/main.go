// Command playbook turns multi-area business intelligence into a ranked,
// budget-constrained investment portfolio.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

// Command regimecalc compares income tax under the old and new regimes.
package main

func main() {
	Execute()
}

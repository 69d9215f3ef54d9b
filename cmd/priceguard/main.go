// Command priceguard checks a product catalog once and sends chat alerts for
// prices at or below their targets.
package main

import "github.com/ogulcanaydogan/price-guardian/internal/cli"

func main() {
	cli.Execute()
}

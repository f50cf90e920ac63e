// Verity checks JSON and YAML data against declarative rule files.
//
// A rule file maps field paths to pipe-separated rules:
//
//	rules:
//	  name: require|max:25
//	  email: require|email
//	  age: number|between:18,120
//
// Usage:
//
//	# Check data files, exit 1 when any check fails
//	verity check --rules rules.yaml user.json order.yaml
//
//	# Report unknown rules and broken patterns with their location
//	verity lint rules.yaml
//
//	# Re-check files whenever they or the rule file change
//	verity watch --rules rules.yaml data/
//
//	# Browse and prune stored results
//	verity history --status failed --format csv
//	verity prune --days 30 --archive archive/
package main

func main() {
	Execute()
}

// Tessera validates dashboard content components against the layout spaces
// they are rendered into.
//
// Usage:
//
//	# Start the validation server with default configuration
//	tessera run
//
//	# Start with a custom configuration file
//	tessera run --config /path/to/config.yaml
//
//	# Validate a single component placement from a props file
//	tessera validate --component checklist --space sixth-width --props props.json
//
//	# Lint every placement in a dashboard layout file
//	tessera lint --file dashboard.yaml
//
//	# Print the effective constraint rule table
//	tessera rules
//
//	# Show version information
//	tessera version
package main

func main() {
	Execute()
}

// Command arche-ingest is the CLI driving the three ingesters (spec
// §4.5-§4.7) against an ARCHE repository, built on cobra the way the
// teacher builds rclone's subcommand tree.
package main

func main() {
	Execute()
}

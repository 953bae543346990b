package main

import "github.com/reoring/xsd2fhir/cmd/xsd2fhir/cmd"

func main() {
	cmd.Execute()
}

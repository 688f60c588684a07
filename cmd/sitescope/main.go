// Package main provides the sitescope command line client.
package main

func main() {
	Execute()
}

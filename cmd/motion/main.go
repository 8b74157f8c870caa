// Command motion validates and simulates storyboard documents.
package main

func main() {
	Execute()
}

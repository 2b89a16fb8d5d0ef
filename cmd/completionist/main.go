// Command completionist is a terminal star chart for tracking achievements.
package main

func main() {
	Execute()
}

// Command eventreport serves and prints concert-attendance analytics for
// Eventernote users.
package main

func main() {
	Execute()
}

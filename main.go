// taskboard is a terminal task board backed by a remote task API.
package main

import "github.com/antopolskiy/taskboard/cmd"

func main() {
	cmd.Execute()
}

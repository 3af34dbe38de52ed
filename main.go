// Command vtfs mounts and inspects vintage filesystem images.
package main

import "vtfs/cmd"

func main() {
	cmd.Execute()
}

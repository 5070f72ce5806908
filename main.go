// SPDX-License-Identifier: MPL-2.0

package main

import cmd "neargrid/cmd/neargrid"

func main() {
	cmd.Execute()
}

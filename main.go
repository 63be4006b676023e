// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/addonvet/addonvet/cmd/addonvet"

func main() {
	cmd.Execute()
}

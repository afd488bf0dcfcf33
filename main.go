// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"

	"vnopt/repl"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the vnopt REPL, %s!\n", currentUser.Username)
	fmt.Println("Enter a module and finish it with an empty line.")
	repl.Start(os.Stdin, os.Stdout)
}

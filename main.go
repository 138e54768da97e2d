// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package main

import "wosool/insight/cmd"

func main() {
	cmd.Execute()
}

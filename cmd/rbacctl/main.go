package main

import "github.com/yoiioy700/rbac-system/cmd/rbacctl/cli"

func main() {
	cli.Execute()
}

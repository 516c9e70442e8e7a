// cmd/msapair/main.go
package main

import (
	"msapair/internal/app"
	"msapair/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}

package main

import (
	"context"
	"os"

	"github.com/PolarWolf314/envchain/cmd"
)

func main() {
	os.Exit(cmd.Execute(context.Background(), os.Args[1:]))
}

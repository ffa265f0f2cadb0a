package main

import "media-board-backend/cmd"

func main() {
	cmd.Run()
}

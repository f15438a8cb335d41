package main

import "github.com/vk82313/crypto-arbitrage-bot/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/Shreyaannnnn/rag-news-bot-client/cmd"

func main() {
	cmd.Execute()
}

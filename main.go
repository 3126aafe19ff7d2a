package main

import "maps-scraper/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/console"

func main() {
	console.Execute()
}

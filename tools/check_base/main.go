package main

import (
	"fmt"
	"os"

	"github.com/little-yangyang/wordwriter"
)

// check_base lists the tags of a template and where each one occurs.
func main() {
	path := "testdata/base.docx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	w, err := wordwriter.Open(path, wordwriter.Quiet())
	if err != nil {
		panic(err)
	}

	for _, tag := range w.Tags() {
		fmt.Printf("%s [%s]\n", tag, wordwriter.ParseTag(tag).Kind)
		for _, loc := range w.Locations(tag) {
			switch loc.Kind {
			case wordwriter.TableLocation:
				fmt.Printf("  table cell (%d,%d)\n", loc.Row, loc.Col)
			case wordwriter.TextboxLocation:
				fmt.Println("  textbox")
			default:
				fmt.Printf("  paragraph, %d run(s)\n", len(loc.Runs))
			}
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
)

// verify_html prints the body of a rendered document: paragraph styles and
// text, table cells and image placeholders.
func main() {
	path := "examples/html_injection/result.docx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	fi, _ := f.Stat()
	doc, err := docx.Parse(f, fi.Size())
	if err != nil {
		panic(err)
	}

	fmt.Println("--- Items ---")
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			fmt.Printf("P [%s]: ", style(p))
			printP(p)
			fmt.Println()
		} else if t, ok := it.(*docx.Table); ok {
			fmt.Println("Table:")
			for i, row := range t.TableRows {
				for j, cell := range row.TableCells {
					fmt.Printf("  Cell %d,%d", i, j)
					if pr := cell.TableCellProperties; pr != nil && pr.VMerge != nil {
						fmt.Printf(" (vMerge %q)", pr.VMerge.Val)
					}
					fmt.Print(": ")
					for _, p := range cell.Paragraphs {
						printP(p)
						fmt.Print(" / ")
					}
					fmt.Println()
				}
			}
		}
	}
}

func style(p *docx.Paragraph) string {
	if p.Properties != nil && p.Properties.Style != nil {
		return p.Properties.Style.Val
	}
	return ""
}

func printP(p *docx.Paragraph) {
	for _, child := range p.Children {
		if run, ok := child.(*docx.Run); ok {
			for _, runChild := range run.Children {
				switch c := runChild.(type) {
				case *docx.Text:
					fmt.Print(c.Text)
				case *docx.BarterRabbet:
					fmt.Print("\\n")
				case *docx.Drawing:
					fmt.Print("[IMAGE]")
				}
			}
		}
	}
}

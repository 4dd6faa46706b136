// Command sheetctl drives a workbook.Workbook from a line-oriented script,
// the batch-mode counterpart to an interactive spreadsheet UI: each line is
// one command, executed in order, with no external collaborator beyond the
// formula package and stdlib flag/bufio/log.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-spreadsheet/core/formula"
	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
	"github.com/go-spreadsheet/core/sheetio"
	"github.com/go-spreadsheet/core/workbook"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("sheetctl", flag.ContinueOnError)
	scriptPath := fs.String("script", "", "path to a command script (default: read stdin)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var script io.Reader = stdin
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			log.Printf("sheetctl: %v", err)
			return 1
		}
		defer f.Close()
		script = f
	}

	wb := workbook.New(formula.Parse)
	if _, err := wb.Add("Sheet1"); err != nil {
		log.Printf("sheetctl: %v", err)
		return 1
	}

	if err := runScript(wb, script, stdout); err != nil {
		log.Printf("sheetctl: %v", err)
		return 1
	}
	return 0
}

// runScript executes one command per line. Blank lines and lines starting
// with '#' are ignored. Recognized commands:
//
//	sheet <name>                  create a new sheet and select it
//	use <name>                    select an existing sheet
//	set <a1> <text...>            set a cell's text on the selected sheet
//	clear <a1>                    clear a cell on the selected sheet
//	print values|texts            print the selected sheet to stdout
//	save values|texts <path>      write the selected sheet to path atomically
func runScript(wb *workbook.Workbook, r io.Reader, stdout io.Writer) error {
	current := "Sheet1"
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		cmd := fields[0]

		var err error
		switch cmd {
		case "sheet":
			if len(fields) < 2 {
				err = fmt.Errorf("sheet: missing name")
				break
			}
			_, err = wb.Add(fields[1])
			if err == nil {
				current = fields[1]
			}
		case "use":
			if len(fields) < 2 {
				err = fmt.Errorf("use: missing name")
				break
			}
			if _, ok := wb.SheetByName(fields[1]); !ok {
				err = fmt.Errorf("use: no such sheet %q", fields[1])
				break
			}
			current = fields[1]
		case "set":
			if len(fields) < 3 {
				err = fmt.Errorf("set: usage: set <cell> <text>")
				break
			}
			err = withCell(wb, current, fields[1], func(s *sheet.Sheet, pos position.Position) error {
				return s.Set(pos, fields[2])
			})
		case "clear":
			if len(fields) < 2 {
				err = fmt.Errorf("clear: usage: clear <cell>")
				break
			}
			err = withCell(wb, current, fields[1], func(s *sheet.Sheet, pos position.Position) error {
				return s.Clear(pos)
			})
		case "print":
			mode := "values"
			if len(fields) >= 2 {
				mode = fields[1]
			}
			s, ok := wb.SheetByName(current)
			if !ok {
				err = fmt.Errorf("print: no such sheet %q", current)
				break
			}
			if mode == "texts" {
				err = s.PrintTexts(stdout)
			} else {
				err = s.PrintValues(stdout)
			}
		case "save":
			if len(fields) < 3 {
				err = fmt.Errorf("save: usage: save values|texts <path>")
				break
			}
			s, ok := wb.SheetByName(current)
			if !ok {
				err = fmt.Errorf("save: no such sheet %q", current)
				break
			}
			path := fields[2]
			if fields[1] == "texts" {
				err = sheetio.WriteTexts(s, path)
			} else {
				err = sheetio.WriteValues(s, path)
			}
		default:
			err = fmt.Errorf("unrecognized command %q", cmd)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

func withCell(wb *workbook.Workbook, sheetName, a1 string, f func(s *sheet.Sheet, pos position.Position) error) error {
	s, ok := wb.SheetByName(sheetName)
	if !ok {
		return fmt.Errorf("no such sheet %q", sheetName)
	}
	pos, err := position.ParseA1(a1)
	if err != nil {
		return err
	}
	return f(s, pos)
}

package main

import (
	"context"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/report"
	"github.com/trezcool/marks/core/student"
)

// listStudents prints the matching students as a table.
func (cli *commandLine) listStudents(search, grade, ordering string) error {
	filter := &student.QueryFilter{Search: search, Grade: grade}
	students, err := cli.stdSvc.Query(context.Background(), filter, core.ParseOrdering(ordering))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(append([]string{"ID"}, report.Header...))
	for _, std := range students {
		table.Append([]string{
			std.ID, std.Name, std.Email,
			std.OS, std.DBMS, std.DS, std.COA, std.Java, std.DisplayJCP(),
			std.CGPA.String(), std.Grade,
		})
	}
	table.SetFooter(append(make([]string, len(report.Header)), strconv.Itoa(len(students))+" student(s)"))
	table.Render()
	return nil
}

func (cli *commandLine) recompute() error {
	n, err := cli.stdSvc.Recompute(context.Background())
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "%d student(s) updated\n", n)
	return nil
}

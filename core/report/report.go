// Package report renders student records as CSV or XLSX spreadsheets.
package report

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/marks/core/student"
)

// Formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const (
	sheetName    = "Students"
	baseFilename = "student_report"
)

var Header = []string{"Name", "Email", "OS", "DBMS", "DS", "COA", "Java", "JCP", "CGPA", "Grade"}

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// IsFormat reports whether format is a supported report format.
func IsFormat(format string) bool {
	_, ok := contentTypes[format]
	return ok
}

func ContentType(format string) string { return contentTypes[format] }

func Filename(format string) string { return baseFilename + "." + format }

// Write renders students in the given format.
func Write(w io.Writer, format string, students []student.Student) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, students)
	case FormatXLSX:
		return WriteXLSX(w, students)
	}
	return errors.Errorf("unsupported report format %q", format)
}

func row(std student.Student) []string {
	return []string{std.Name, std.Email, std.OS, std.DBMS, std.DS, std.COA, std.Java, std.DisplayJCP(), std.CGPA.String(), std.Grade}
}

func WriteCSV(w io.Writer, students []student.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, std := range students {
		if err := cw.Write(row(std)); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func WriteXLSX(w io.Writer, students []student.Student) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return errors.Wrap(err, "writing xlsx header")
		}
	}
	for r, std := range students {
		values := row(std)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var val interface{} = v
			if Header[c] == "CGPA" {
				val = std.CGPA.Float64()
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return errors.Wrap(err, "writing xlsx row")
			}
		}
	}
	return errors.Wrap(f.Write(w), "writing xlsx")
}

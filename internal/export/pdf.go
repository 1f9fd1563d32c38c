package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "roster"
	lineHeight = 5.0
	cellPad    = 2.0
)

// Options 控制 PDF 渲染。
// 如果排班表中含有中文姓名，必须通过 FontPath 提供一个 TTF 字体，
// 否则退回到内置的 Helvetica，中文会渲染成乱码
type Options struct {
	Title    string
	FontPath string
}

// RenderGrid 把聚合层生成的表格（首行为表头，末行为每周合计）
// 渲染成横版 A4 的 PDF 并写入 path。
// grid 的每个单元格内可以用换行符分隔多段值班时间
func RenderGrid(grid [][]string, opts Options, path string) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return fmt.Errorf("排班表格为空，无法渲染")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)

	family := "Helvetica"
	if opts.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", opts.FontPath)
		pdf.AddUTF8Font(fontFamily, "B", opts.FontPath)
		family = fontFamily
	}

	pdf.AddPage()

	if opts.Title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, opts.Title, "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	usable := pageWidth - left - right

	cols := len(grid[0])
	colWidth := usable / float64(cols)

	for rowIndex, row := range grid {
		header := rowIndex == 0
		if header {
			pdf.SetFont(family, "B", 10)
			pdf.SetFillColor(0, 0, 0)
			pdf.SetTextColor(255, 255, 255)
		} else {
			pdf.SetFont(family, "", 9)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(0, 0, 0)
		}

		// 行高由行内单元格的最大行数决定
		maxLines := 1
		for _, cell := range row {
			if n := strings.Count(cell, "\n") + 1; n > maxLines {
				maxLines = n
			}
		}
		rowHeight := float64(maxLines)*lineHeight + 2*cellPad

		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
		}

		x := left
		y := pdf.GetY()
		for _, cell := range row {
			pdf.Rect(x, y, colWidth, rowHeight, "DF")
			pdf.SetXY(x, y+cellPad)
			pdf.MultiCell(colWidth, lineHeight, cell, "", "C", false)
			x += colWidth
		}
		pdf.SetXY(left, y+rowHeight)
	}

	if err := pdf.Error(); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

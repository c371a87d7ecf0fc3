package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheetNameLimit Excel 对 Sheet 名称的长度限制
const sheetNameLimit = 31

// writeXLSX 把表格写成只有一个 Sheet 的 XLSX
func writeXLSX(sh *sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sh.name)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("设置 Sheet 名称失败: %w", err)
	}

	// 写入表头
	for i, h := range sh.header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(name, cell, h)
	}

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	last, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
	f.SetCellStyle(name, "A1", last, headerStyle)

	for i, w := range sh.widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(name, col, col, w)
	}

	// 写入数据行
	for i, row := range sh.rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(name, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("写入XLSX失败: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName 去掉 Excel 不允许的字符并按字符截断
func sheetName(s string) string {
	out := make([]rune, 0, sheetNameLimit)
	for _, r := range s {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		if r == utf8.RuneError {
			continue
		}
		out = append(out, r)
		if len(out) == sheetNameLimit {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}

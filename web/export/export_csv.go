package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

const contentTypeCSV = "text/csv; charset=utf-8"

// sheet 是 CSV 和 XLSX 共用的表格数据
type sheet struct {
	name   string
	header []string
	rows   [][]string
	widths []float64
}

// writeCSV 把表格写成 CSV
func writeCSV(sh *sheet) ([]byte, error) {
	var buf bytes.Buffer

	// 写入 UTF-8 BOM，确保 Excel 正确识别编码
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(sh.header); err != nil {
		return nil, fmt.Errorf("写入CSV表头失败: %w", err)
	}
	if err := w.WriteAll(sh.rows); err != nil {
		return nil, fmt.Errorf("写入CSV数据失败: %w", err)
	}
	return buf.Bytes(), nil
}

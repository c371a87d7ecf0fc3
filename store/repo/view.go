package repo

import "github.com/afumu/wxbackup/internal/model"

// decodeViews 批量转换，无法转换的行会被跳过
func decodeViews(rows []model.MessageRow) []*model.MessageView {
	views := make([]*model.MessageView, 0, len(rows))
	for _, row := range rows {
		view, err := row.View()
		if err != nil {
			continue
		}
		views = append(views, view)
	}
	return views
}

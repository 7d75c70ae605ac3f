// api/models/import_models.go
package models

import "github.com/Annany2002/domain-ledger/internal/importer"

// UploadResponse is returned once a workbook is accepted and its import task started.
type UploadResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	TaskID  string                 `json:"task_id"`
	Total   int                    `json:"total"`
	Skipped []importer.ImportError `json:"skipped"`
}

// TaskResponse reports the progress of an import task.
type TaskResponse struct {
	Title    string  `json:"title"`
	Total    int     `json:"total"`
	Status   string  `json:"status"`
	Progress int     `json:"progress"`
	Failed   int     `json:"failed"`
	ErrMsg   *string `json:"err_msg"`
}

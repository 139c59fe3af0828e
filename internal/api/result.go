package api

import (
	"github.com/piwi3910/palletpack/internal/export"
	"github.com/piwi3910/palletpack/internal/task"
)

// buildResultPayload adapts a completed task.Record to §6.3's exported
// result document, reusing the same builder the file-export collaborator
// uses so GET /result/{id} and the export formats never drift apart.
func buildResultPayload(rec task.Record) export.ResultPayload {
	return export.BuildPayload(rec.Result, rec.Report)
}

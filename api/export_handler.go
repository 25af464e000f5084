package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/catalog"
	"github.com/raushankrgupta/merchant-dashboard/errx"
	"github.com/raushankrgupta/merchant-dashboard/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler downloads the current directory as a spreadsheet
func (s *Server) ExportHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := catalog.WriteXLSX(&buf, s.catalog.Snapshot(), s.products.ImageURL); err != nil {
		utils.RespondError(w, r, err, errx.MessageOf(err), errx.StatusOf(err))
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = buf.WriteTo(w)
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/services"
)

// ExportHandler streams the history workbook download
type ExportHandler struct {
	debts *services.DebtService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(debts *services.DebtService) *ExportHandler {
	return &ExportHandler{debts: debts}
}

// HistoryXLSX writes the user's full debt history as an .xlsx attachment
func (h *ExportHandler) HistoryXLSX(c echo.Context) error {
	debts, err := h.debts.List(c.Request().Context(), userUID(c))
	if err != nil {
		return err
	}

	f, err := services.BuildHistoryWorkbook(debts)
	if err != nil {
		return err
	}
	defer f.Close()

	filename := services.ExportFilename(time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	return f.Write(c.Response())
}

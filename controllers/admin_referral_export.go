package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// usagesForPeriod fetches ledger rows for the export period (day/week/month).
func usagesForPeriod(c *gin.Context) ([]models.ReferralUsage, string, error) {
	period := c.DefaultQuery("period", "month")

	now := time.Now()
	var startDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	default:
		return nil, "", fmt.Errorf("invalid period %q", period)
	}

	var usages []models.ReferralUsage
	err := config.DB.Where("created_at >= ?", startDate).
		Order("created_at DESC").
		Find(&usages).Error
	if err != nil {
		return nil, "", err
	}
	return usages, period, nil
}

// DownloadReferralUsageExcel exports the usage ledger as an Excel sheet
func DownloadReferralUsageExcel(c *gin.Context) {
	utils.LogInfo("DownloadReferralUsageExcel called")

	usages, period, err := usagesForPeriod(c)
	if err != nil {
		utils.LogError("Failed to collect usages for Excel export: %v", err)
		utils.BadRequest(c, "Failed to build report", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d usages for Excel report", len(usages))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Referral Usage")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("STYLESPHERE - Referral Usage Report")
	periodRow := sheet.AddRow()
	periodRow.AddCell().SetString("Period: " + period + " | Generated: " + time.Now().Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Code", "Redeemer ID", "Partner ID", "Key Type", "Redeemed At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, usage := range usages {
		row := sheet.AddRow()
		row.AddCell().SetString(usage.Code)
		row.AddCell().SetInt(int(usage.RedeemerUserID))
		row.AddCell().SetInt(int(usage.PartnerUserID))
		row.AddCell().SetString(usage.DiscountKeyType)
		row.AddCell().SetString(usage.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=referral-usage-%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel report: %v", err)
		utils.InternalServerError(c, "Failed to write report", nil)
		return
	}
	utils.LogInfo("Excel referral usage report exported, %d rows", len(usages))
}

// DownloadReferralUsagePDF exports the usage ledger as a PDF
func DownloadReferralUsagePDF(c *gin.Context) {
	utils.LogInfo("DownloadReferralUsagePDF called")

	usages, period, err := usagesForPeriod(c)
	if err != nil {
		utils.LogError("Failed to collect usages for PDF export: %v", err)
		utils.BadRequest(c, "Failed to build report", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d usages for PDF report", len(usages))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "STYLESPHERE - Referral Usage Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Period: "+period+" | Generated: "+time.Now().Format("2006-01-02"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	colWidths := []float64{30, 35, 35, 30, 50}
	headers := []string{"Code", "Redeemer ID", "Partner ID", "Key Type", "Redeemed At"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, usage := range usages {
		pdf.CellFormat(colWidths[0], 7, usage.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", usage.RedeemerUserID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("%d", usage.PartnerUserID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, usage.DiscountKeyType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, usage.CreatedAt.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=referral-usage-%s.pdf", period))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF report: %v", err)
		utils.InternalServerError(c, "Failed to write report", nil)
		return
	}
	utils.LogInfo("PDF referral usage report exported, %d rows", len(usages))
}

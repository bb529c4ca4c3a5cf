package worklog

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	RenderFlatRows(rows []FlatRow, clock bool) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

var csvHeader = []string{"Group", "User", "Parent", "Epic", "Ticket", "Issue type", "Summary", "Project", "Logged at", "Time spent", "Comment"}

func (r *CsvRendererImpl) RenderFlatRows(rows []FlatRow, clock bool) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.Write(csvHeader); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, row := range rows {
		err := writer.Write([]string{
			row.GroupName,
			row.UserDisplay,
			row.ParentKey,
			row.EpicDisplay,
			row.TicketKey,
			row.IssueType,
			row.Summary,
			row.ProjectName,
			row.LoggedAt.Format("2006-01-02 15:04"),
			FormatSeconds(row.TimeSpent, clock),
			row.Comment,
		})
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

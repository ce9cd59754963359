package backend

import (
	"context"

	"github.com/soratech/storefront/internal/models"
)

type AuditLogsAPI struct {
	c *Client
}

func (a *AuditLogsAPI) GetAll(ctx context.Context) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := a.c.get(ctx, "/api/AuditLogs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

type BackupAPI struct {
	c *Client
}

// Create triggers a server-side database backup and returns its file name.
func (a *BackupAPI) Create(ctx context.Context) (string, error) {
	var resp struct {
		FileName string `json:"fileName"`
	}
	if err := a.c.post(ctx, "/api/Backup/create", nil, &resp); err != nil {
		return "", err
	}
	return resp.FileName, nil
}

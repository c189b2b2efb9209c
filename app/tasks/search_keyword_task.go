package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type SearchKeywordTask struct {
	Task
	searcher Searcher
}

func NewSearchKeywordTask(keyword string, searcher Searcher) *SearchKeywordTask {
	return &SearchKeywordTask{
		Task:     NewTask(TaskTypeSearchKeyword, keyword),
		searcher: searcher,
	}
}

func (t *SearchKeywordTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	resp, err := t.searcher.Search(ctx, t.Keyword)
	if err != nil {
		return fmt.Errorf("failed to search keyword %q: %w", t.Keyword, err)
	}

	slog.Info("Task completed", "type", string(t.Type), "keyword", t.Keyword,
		"found", resp.TotalFound, "processed", resp.TotalProcessed, "failed", resp.TotalFailed,
		"duration", t.GetDuration())

	return nil
}

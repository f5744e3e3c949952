// Package fetcher turns a group's Notion work-log database into sorted,
// per-person report rows.
package fetcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"groupstatus/internal/timeutil"
	"groupstatus/notion"
	"groupstatus/worklog"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Options struct {
	Schema Schema
	Now    timeutil.Clock
	Logger *zap.Logger
	// Concurrency bounds the number of groups queried at once by FetchAll.
	Concurrency int
}

type Fetcher struct {
	client      notion.Client
	schema      Schema
	now         timeutil.Clock
	logger      *zap.Logger
	concurrency int
}

func New(client notion.Client, opts Options) (*Fetcher, error) {
	if client == nil {
		return nil, errors.New("notion client is required")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Fetcher{
		client:      client,
		schema:      opts.Schema.WithDefaults(),
		now:         now,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Fetch queries the group's database once and returns one row per
// (page, assignee) pair plus a placeholder row for each silent member,
// sorted by numeric group label and person.
//
// A nil startDate selects entries dated today; otherwise entries on or after
// startDate are selected. A malformed startDate fails with
// *InvalidDateFormatError before any request is sent. Errors from the client
// and from sorting are returned as they are.
func (f *Fetcher) Fetch(ctx context.Context, group worklog.Group, startDate *string) ([]worklog.Row, error) {
	condition, err := f.dateFilter(startDate)
	if err != nil {
		return nil, err
	}

	rows, err := f.fetchGroup(ctx, group, condition)
	if err != nil {
		return nil, err
	}
	if err := worklog.SortRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAll runs Fetch for every group with the same date filter and returns
// the combined rows in the same order Fetch uses.
func (f *Fetcher) FetchAll(ctx context.Context, groups []worklog.Group, startDate *string) ([]worklog.Row, error) {
	condition, err := f.dateFilter(startDate)
	if err != nil {
		return nil, err
	}

	results := make([][]worklog.Row, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, group := range groups {
		g.Go(func() error {
			rows, err := f.fetchGroup(gctx, group, condition)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	all := make([]worklog.Row, 0, total)
	for _, rows := range results {
		all = append(all, rows...)
	}
	if err := worklog.SortRows(all); err != nil {
		return nil, err
	}
	return all, nil
}

func (f *Fetcher) dateFilter(startDate *string) (notion.Filter, error) {
	if startDate == nil {
		return notion.DateEquals(f.schema.DateProperty, timeutil.Today(f.now)), nil
	}
	if !timeutil.IsISODate(*startDate) {
		return notion.Filter{}, &InvalidDateFormatError{Value: *startDate}
	}
	return notion.DateOnOrAfter(f.schema.DateProperty, *startDate), nil
}

func (f *Fetcher) fetchGroup(ctx context.Context, group worklog.Group, condition notion.Filter) ([]worklog.Row, error) {
	filter := notion.And(
		condition,
		notion.SelectDoesNotEqual(f.schema.ProjectTypeProperty, f.schema.ExcludedProjectType),
	)

	f.logger.Debug("query work log database",
		zap.String("group", group.Name),
		zap.String("database_id", group.ID),
	)
	result, err := f.client.QueryDatabase(ctx, notion.DatabaseQuery{
		DatabaseID: group.ID,
		Filter:     &filter,
	})
	if err != nil {
		return nil, err
	}
	if result.HasMore {
		f.logger.Warn("work log query returned more pages than fetched",
			zap.String("group", group.Name),
			zap.Int("pages", len(result.Results)),
		)
	}

	rows := make([]worklog.Row, 0, len(result.Results)+len(group.Members))
	for _, page := range result.Results {
		pageRows, err := f.rowsForPage(group, page)
		if err != nil {
			return nil, err
		}
		rows = append(rows, pageRows...)
	}

	fetched := len(rows)
	rows = worklog.Backfill(group, rows)
	f.logger.Debug("work log rows built",
		zap.String("group", group.Name),
		zap.Int("pages", len(result.Results)),
		zap.Int("rows", fetched),
		zap.Int("backfilled", len(rows)-fetched),
	)
	return rows, nil
}

func (f *Fetcher) rowsForPage(group worklog.Group, page notion.Page) ([]worklog.Row, error) {
	props, err := f.lookupProperties(page)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(props.assignee.People))
	for _, person := range props.assignee.People {
		name := strings.TrimSpace(person.Name)
		if name == "" {
			// bots and deleted users come without a name
			name = f.schema.UnassignedName
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		names = []string{f.schema.UnassignedName}
	}

	// status is not part of the report row
	status := valueOr(props.status.Status, func(o notion.Option) string { return o.Name }, "")
	workDate := valueOr(props.date.Date, func(d notion.DateValue) string { return d.Start }, "")
	title := firstOr(props.title.Title, func(t notion.RichText) string { return t.PlainText }, "")
	result := notion.PlainText(props.result.RichText)
	solution := notion.PlainText(props.solution.RichText)
	issue := notion.PlainText(props.issue.RichText)

	f.logger.Debug("work log page",
		zap.String("page_id", page.ID),
		zap.String("status", status),
		zap.Strings("assignees", names),
	)

	rows := make([]worklog.Row, 0, len(names))
	for _, name := range names {
		rows = append(rows, worklog.Row{
			Group:    group.Name,
			Person:   name,
			WorkDate: workDate,
			Title:    title,
			Issue:    issue,
			Solution: solution,
			Result:   result,
		})
	}
	return rows, nil
}

type pageProperties struct {
	assignee notion.Property
	status   notion.Property
	date     notion.Property
	result   notion.Property
	solution notion.Property
	issue    notion.Property
	title    notion.Property
}

func (f *Fetcher) lookupProperties(page notion.Page) (pageProperties, error) {
	var props pageProperties
	fields := []struct {
		name     string
		wantType string
		dst      *notion.Property
	}{
		{f.schema.AssigneeProperty, "people", &props.assignee},
		// status is read leniently, any type is accepted
		{f.schema.StatusProperty, "", &props.status},
		{f.schema.DateProperty, "date", &props.date},
		{f.schema.ResultProperty, "rich_text", &props.result},
		{f.schema.SolutionProperty, "rich_text", &props.solution},
		{f.schema.IssueProperty, "rich_text", &props.issue},
		{f.schema.TitleProperty, "title", &props.title},
	}

	for _, field := range fields {
		prop, ok := page.Properties[field.name]
		if !ok {
			return pageProperties{}, &PropertyError{PageID: page.ID, Property: field.name, Want: field.wantType}
		}
		if field.wantType != "" && prop.Type != "" && prop.Type != field.wantType {
			return pageProperties{}, &PropertyError{PageID: page.ID, Property: field.name, Want: field.wantType, Got: prop.Type}
		}
		*field.dst = prop
	}
	return props, nil
}

// valueOr returns get(*v), or fallback when the optional value v is absent.
func valueOr[T, V any](v *T, get func(T) V, fallback V) V {
	if v == nil {
		return fallback
	}
	return get(*v)
}

// firstOr returns get(values[0]), or fallback for an empty slice.
func firstOr[T, V any](values []T, get func(T) V, fallback V) V {
	if len(values) == 0 {
		return fallback
	}
	return get(values[0])
}

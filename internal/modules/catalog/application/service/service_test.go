package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"MCPCatalog/internal/config"
	"MCPCatalog/internal/initial"
	"MCPCatalog/internal/modules/catalog/domain/entity"
	"MCPCatalog/internal/modules/catalog/domain/repository"
	"MCPCatalog/internal/modules/catalog/infrastructure/mq"
	"MCPCatalog/internal/modules/catalog/infrastructure/overrides"
	"MCPCatalog/internal/modules/catalog/infrastructure/persistence"
	"MCPCatalog/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const bt = "`"

// search_web 的参数块与 read_page 之间留足 200 字节以上，避免窗口串到上一个工具
var searchReadme = `# Search Server

Fast web search for agents.

## Available Tools

- ` + bt + `search_web` + bt + ` - Search the web for pages.

  **Parameters:**
  - ` + bt + `query` + bt + ` - Search text (required)
  - ` + bt + `limit` + bt + ` - Max results (optional, default: 10)

` + strings.Repeat("Results are ranked by relevance and freshness. ", 6) + `

- ` + bt + `read_page` + bt + ` - Read a page as markdown.

## License

MIT
`

var notesReadme = "# Notes\n\n" + strings.Repeat("This server has no documented tool list yet. ", 4)

type recordingSink struct {
	mu     sync.Mutex
	events []mq.ServerEnrichedEvent
}

func (r *recordingSink) ServerEnriched(_ context.Context, ev mq.ServerEnrichedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// flakyUnitOfWork 前 failures 次事务直接失败
type flakyUnitOfWork struct {
	repository.CatalogUnitOfWork
	failures int
}

func (f *flakyUnitOfWork) Transaction(fn func(repository.ServerRepository, repository.ToolRepository, repository.ToolParameterRepository) error) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("database is locked")
	}
	return f.CatalogUnitOfWork.Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := initial.InitGorm(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedServer(t *testing.T, db *gorm.DB, slug, readme string) *entity.Server {
	t.Helper()
	now := time.Now()
	s := &entity.Server{Id: util.GenerateUUID(), Slug: slug, Name: slug, DisplayName: slug, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, persistence.NewServerRepository(db).CreateServer(s))
	require.NoError(t, persistence.NewReadmeRepository(db).UpsertContent(&entity.MarkdownContent{
		Id: util.GenerateUUID(), ServerId: s.Id, ContentType: entity.ContentTypeReadme,
		Content: readme, CreatedAt: now, UpdatedAt: now,
	}))
	return s
}

func newDeps(db *gorm.DB, sink EventSink) EnrichDeps {
	return EnrichDeps{
		UnitOfWork: persistence.NewCatalogUnitOfWork(db),
		Readmes:    persistence.NewReadmeRepository(db),
		Tools:      persistence.NewToolRepository(db),
		Runs:       persistence.NewEnrichmentRunRepository(db),
		Events:     sink,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestPipeline_DryRunParityAndIdempotence(t *testing.T) {
	db := newTestDB(t)
	srv := seedServer(t, db, "search-server", searchReadme)
	seedServer(t, db, "notes-server", notesReadme)

	sink := &recordingSink{}
	svc := NewPipelineService(newDeps(db, sink))
	ctx := context.Background()

	dry, err := svc.Enrich(ctx, EnrichOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), countRows(t, db, &entity.Tool{}))
	assert.Equal(t, int64(0), countRows(t, db, &entity.ToolParameter{}))
	assert.Equal(t, int64(0), countRows(t, db, &entity.EnrichmentRun{}))
	assert.Empty(t, sink.events)

	first, err := svc.Enrich(ctx, EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, dry.Records, first.Records)
	assert.Equal(t, dry.Stats.ToolsInserted, first.Stats.ToolsInserted)
	assert.Equal(t, dry.Stats.ParamsInserted, first.Stats.ParamsInserted)

	st := first.Stats
	assert.Equal(t, 2, st.Processed)
	assert.Equal(t, 1, st.Matched)
	assert.Equal(t, 1, st.NoSection)
	assert.Equal(t, 2, st.ToolsInserted)
	assert.Equal(t, 2, st.ParamsInserted)
	assert.Equal(t, 0, st.Errors)
	assert.Equal(t, 1, st.Strategies["tool:bullet_backtick"])
	assert.Equal(t, 1, st.Strategies["param:simple_list"])
	assert.InDelta(t, 50.0, st.SuccessRate(), 0.001)

	got, err := persistence.NewServerRepository(db).GetServerByID(srv.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ToolsCount)

	tool, err := persistence.NewToolRepository(db).GetToolByServerAndName(srv.Id, "search_web")
	require.NoError(t, err)
	require.NotNil(t, tool)
	assert.Equal(t, "Search Web", tool.DisplayName)
	assert.Equal(t, entity.EmptyInputSchema, tool.InputSchema)

	params, err := persistence.NewToolParameterRepository(db).ListParametersByTool(tool.Id)
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "query", params[0].Name)
	require.NotNil(t, params[0].Required)
	assert.True(t, *params[0].Required)
	assert.Nil(t, params[0].DefaultValue)
	assert.Equal(t, "limit", params[1].Name)
	require.NotNil(t, params[1].Required)
	assert.False(t, *params[1].Required)
	require.NotNil(t, params[1].DefaultValue)
	assert.Equal(t, "10", *params[1].DefaultValue)
	assert.Nil(t, params[1].Type)

	second, err := svc.Enrich(ctx, EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Stats.ToolsInserted)
	assert.Equal(t, 0, second.Stats.ToolsUpdated)
	assert.Equal(t, 0, second.Stats.ParamsInserted)
	assert.Equal(t, 0, second.Stats.ParamsUpdated)
	assert.Equal(t, 2, second.Stats.ToolsUnchanged)
	assert.Equal(t, 2, second.Stats.ParamsUnchanged)

	assert.Equal(t, int64(2), countRows(t, db, &entity.EnrichmentRun{}))
	require.Len(t, sink.events, 2)
	assert.Equal(t, "search-server", sink.events[0].Slug)
	assert.Equal(t, entity.RunKindPipeline, sink.events[0].RunKind)
	assert.Equal(t, 2, sink.events[0].ToolsCount)
	assert.Equal(t, 2, sink.events[0].ParamsInserted)
}

func TestToolsThenParameters(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, "search-server", searchReadme)

	sink := &recordingSink{}
	deps := newDeps(db, sink)
	ctx := context.Background()

	tools, err := NewToolEnrichService(deps).Enrich(ctx, EnrichOptions{Trigger: entity.TriggerHTTP})
	require.NoError(t, err)
	assert.Equal(t, 2, tools.Stats.ToolsInserted)
	assert.Equal(t, entity.TriggerHTTP, tools.Stats.Trigger)
	assert.Equal(t, int64(0), countRows(t, db, &entity.ToolParameter{}))

	params, err := NewParameterEnrichService(deps).Enrich(ctx, EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, params.Stats.Processed)
	assert.Equal(t, 1, params.Stats.Matched)
	assert.Equal(t, 2, params.Stats.ParamsInserted)
	assert.Equal(t, 0, params.Stats.MissingAnchor)
	assert.Equal(t, int64(2), countRows(t, db, &entity.ToolParameter{}))

	require.Len(t, sink.events, 2)
	assert.Equal(t, entity.RunKindTools, sink.events[0].RunKind)
	assert.Equal(t, entity.RunKindParams, sink.events[1].RunKind)
	assert.Equal(t, 2, sink.events[1].ParamsInserted)

	runs, err := persistence.NewEnrichmentRunRepository(db).ListRecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, entity.RunKindParams, runs[0].Kind)
}

func TestEnrich_UnitFailureDoesNotAbortBatch(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, "a-server", searchReadme)
	seedServer(t, db, "b-server", searchReadme)

	deps := newDeps(db, nil)
	deps.UnitOfWork = &flakyUnitOfWork{CatalogUnitOfWork: deps.UnitOfWork, failures: 1}

	report, err := NewToolEnrichService(deps).Enrich(context.Background(), EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Stats.Processed)
	assert.Equal(t, 2, report.Stats.Matched)
	assert.Equal(t, 1, report.Stats.Errors)
	assert.Equal(t, 2, report.Stats.ToolsInserted)
	assert.Equal(t, int64(2), countRows(t, db, &entity.Tool{}))
}

// conflictUnitOfWork 让指定的自然键查询返回 ErrPersistenceConflict，模拟库里已有重复行
type conflictUnitOfWork struct {
	repository.CatalogUnitOfWork
	toolServerID string
	toolName     string
	paramName    string
}

func (c *conflictUnitOfWork) Transaction(fn func(repository.ServerRepository, repository.ToolRepository, repository.ToolParameterRepository) error) error {
	return c.CatalogUnitOfWork.Transaction(func(servers repository.ServerRepository, tools repository.ToolRepository, params repository.ToolParameterRepository) error {
		return fn(servers,
			&conflictToolRepo{ToolRepository: tools, serverID: c.toolServerID, name: c.toolName},
			&conflictParamRepo{ToolParameterRepository: params, name: c.paramName})
	})
}

type conflictToolRepo struct {
	repository.ToolRepository
	serverID, name string
}

func (r *conflictToolRepo) GetToolByServerAndName(serverID, name string) (*entity.Tool, error) {
	if serverID == r.serverID && name == r.name {
		return nil, repository.ErrPersistenceConflict
	}
	return r.ToolRepository.GetToolByServerAndName(serverID, name)
}

type conflictParamRepo struct {
	repository.ToolParameterRepository
	name string
}

func (r *conflictParamRepo) GetParameterByToolAndName(toolID, name string) (*entity.ToolParameter, error) {
	if name == r.name {
		return nil, repository.ErrPersistenceConflict
	}
	return r.ToolParameterRepository.GetParameterByToolAndName(toolID, name)
}

func TestPipeline_ConflictSkipsOnlyThatRecord(t *testing.T) {
	db := newTestDB(t)
	a := seedServer(t, db, "a-server", searchReadme)
	seedServer(t, db, "b-server", searchReadme)

	deps := newDeps(db, nil)
	deps.UnitOfWork = &conflictUnitOfWork{
		CatalogUnitOfWork: deps.UnitOfWork,
		toolServerID:      a.Id,
		toolName:          "read_page",
		paramName:         "limit",
	}

	report, err := NewPipelineService(deps).Enrich(context.Background(), EnrichOptions{})
	require.NoError(t, err)

	st := report.Stats
	assert.Equal(t, 2, st.Processed)
	assert.Equal(t, 2, st.Matched)
	// a-server.read_page 一次，两个服务的 search_web.limit 各一次
	assert.Equal(t, 3, st.Errors)
	assert.Equal(t, 3, st.ToolsInserted)
	assert.Equal(t, 2, st.ParamsInserted)

	var aTools []entity.Tool
	require.NoError(t, db.Where("server_id = ?", a.Id).Order("name").Find(&aTools).Error)
	require.Len(t, aTools, 1)
	assert.Equal(t, "search_web", aTools[0].Name)
	assert.Equal(t, int64(3), countRows(t, db, &entity.Tool{}))

	var names []string
	require.NoError(t, db.Model(&entity.ToolParameter{}).Distinct().Pluck("name", &names).Error)
	assert.Equal(t, []string{"query"}, names)

	runs, err := persistence.NewEnrichmentRunRepository(db).ListRecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Errors)
}

func TestToolEnrich_ConflictDoesNotRollBackSiblings(t *testing.T) {
	db := newTestDB(t)
	srv := seedServer(t, db, "search-server", searchReadme)

	deps := newDeps(db, nil)
	deps.UnitOfWork = &conflictUnitOfWork{CatalogUnitOfWork: deps.UnitOfWork, toolServerID: srv.Id, toolName: "search_web"}

	report, err := NewToolEnrichService(deps).Enrich(context.Background(), EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.Errors)
	assert.Equal(t, 1, report.Stats.ToolsInserted)

	got, err := persistence.NewToolRepository(db).GetToolByServerAndName(srv.Id, "read_page")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestEnrich_Overrides(t *testing.T) {
	db := newTestDB(t)
	srv := seedServer(t, db, "search-server", searchReadme)

	set, err := overrides.Decode(`
[[tool]]
server = "search-server"
name = "read_page"
skip = true

[[parameter]]
server = "search-server"
tool = "search_web"
name = "limit"
type = "integer"
`)
	require.NoError(t, err)

	deps := newDeps(db, nil)
	deps.Overrides = set
	report, err := NewPipelineService(deps).Enrich(context.Background(), EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.ToolsInserted)
	assert.Equal(t, 2, report.Stats.OverridesApplied)

	tool, err := persistence.NewToolRepository(db).GetToolByServerAndName(srv.Id, "search_web")
	require.NoError(t, err)
	params, err := persistence.NewToolParameterRepository(db).ListParametersByTool(tool.Id)
	require.NoError(t, err)
	require.Len(t, params, 2)
	require.NotNil(t, params[1].Type)
	assert.Equal(t, "integer", *params[1].Type)
}

func TestEnrich_ParameterChangeIsUpdate(t *testing.T) {
	db := newTestDB(t)
	srv := seedServer(t, db, "search-server", searchReadme)
	svc := NewPipelineService(newDeps(db, nil))
	ctx := context.Background()

	_, err := svc.Enrich(ctx, EnrichOptions{})
	require.NoError(t, err)

	edited := strings.Replace(searchReadme, "default: 10", "default: 25", 1)
	require.NoError(t, persistence.NewReadmeRepository(db).UpsertContent(&entity.MarkdownContent{
		Id: util.GenerateUUID(), ServerId: srv.Id, ContentType: entity.ContentTypeReadme,
		Content: edited, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	report, err := svc.Enrich(ctx, EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats.ParamsInserted)
	assert.Equal(t, 1, report.Stats.ParamsUpdated)
	assert.Equal(t, 1, report.Stats.ParamsUnchanged)
}

func TestEnrich_GuardRejectsConcurrentRun(t *testing.T) {
	db := newTestDB(t)
	release, err := enrichGuard.acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, IsEnrichmentRunning())

	_, err = NewPipelineService(newDeps(db, nil)).Enrich(context.Background(), EnrichOptions{})
	assert.ErrorIs(t, err, ErrEnrichmentRunning)

	release()
	assert.False(t, IsEnrichmentRunning())
}

func TestEnrich_LimitAndReport(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, "a-server", searchReadme)
	seedServer(t, db, "b-server", searchReadme)

	report, err := NewToolEnrichService(newDeps(db, nil)).Enrich(context.Background(), EnrichOptions{Limit: 1, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.Processed)
	require.Len(t, report.Records, 2)
	assert.Equal(t, "a-server", report.Records[0].Server)

	path := t.TempDir() + "/out/report.json"
	require.NoError(t, report.WriteJSON(path))
}

type failingSink struct{}

func (failingSink) ServerEnriched(context.Context, mq.ServerEnrichedEvent) error {
	return errors.New("broker down")
}

func TestFanOut(t *testing.T) {
	assert.Nil(t, FanOut(nil, nil))

	rec := &recordingSink{}
	assert.Same(t, rec, FanOut(nil, rec))

	sink := FanOut(rec, failingSink{})
	err := sink.ServerEnriched(context.Background(), mq.ServerEnrichedEvent{Slug: "a"})
	assert.Error(t, err)
	assert.Len(t, rec.events, 1)
}

func TestEnrich_PublishFailureIsNotUnitError(t *testing.T) {
	db := newTestDB(t)
	seedServer(t, db, "search-server", searchReadme)

	report, err := NewToolEnrichService(newDeps(db, failingSink{})).Enrich(context.Background(), EnrichOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats.Errors)
	assert.Equal(t, 2, report.Stats.ToolsInserted)
}

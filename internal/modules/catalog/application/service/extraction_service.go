package service

import (
	"context"
	"strings"

	"MCPCatalog/internal/modules/catalog/application/dto/request"
	"MCPCatalog/internal/modules/catalog/application/dto/respond"
	"MCPCatalog/internal/modules/catalog/infrastructure/cache"
	"MCPCatalog/internal/modules/catalog/infrastructure/extraction"
	"MCPCatalog/pkg/util"
	"MCPCatalog/pkg/xerr"
	"MCPCatalog/pkg/zlog"

	"go.uber.org/zap"
)

// maxReadmeBytes 预览接口接受的 README 上限
const maxReadmeBytes = 2 << 20

// ExtractionService 不落库的解析预览，HTTP 与 MCP 共用
type ExtractionService interface {
	PreviewTools(ctx context.Context, req request.ExtractToolsRequest) (*respond.ToolsPreviewRespond, error)
	PreviewParameters(ctx context.Context, req request.ExtractParametersRequest) (*respond.ParametersPreviewRespond, error)
}

type extractionServiceImpl struct {
	cache cache.PreviewCache
}

// NewExtractionService cache 可为 nil
func NewExtractionService(c cache.PreviewCache) ExtractionService {
	return &extractionServiceImpl{cache: c}
}

func (s *extractionServiceImpl) PreviewTools(ctx context.Context, req request.ExtractToolsRequest) (*respond.ToolsPreviewRespond, error) {
	if err := checkReadme(req.Readme); err != nil {
		return nil, err
	}

	key := "tools:" + extraction.EngineVersion + ":" + util.ContentHash(req.Readme)
	var out respond.ToolsPreviewRespond
	if s.load(ctx, key, &out) {
		out.Cached = true
		return &out, nil
	}

	res := extraction.ExtractTools(req.Readme)
	out = respond.ToolsPreviewRespond{
		SectionFound:    res.SectionFound,
		Strategy:        res.Strategy,
		MalformedBlocks: res.MalformedBlocks,
		Tools:           make([]respond.ToolPreview, 0, len(res.Tools)),
		EngineVersion:   extraction.EngineVersion,
	}
	for _, t := range res.Tools {
		p := respond.ToolPreview{ToolRecord: t, Parameters: []extraction.ParameterRecord{}}
		if w, pr, ok := extraction.ExtractToolParameters(req.Readme, t.Name); ok {
			p.Parameters = pr.Parameters
			p.ParameterStrategy = pr.Strategy
			p.Anchor = w.Anchor
			p.LowConfidence = w.LowConfidence
		}
		out.Tools = append(out.Tools, p)
	}

	s.store(ctx, key, out)
	return &out, nil
}

func (s *extractionServiceImpl) PreviewParameters(ctx context.Context, req request.ExtractParametersRequest) (*respond.ParametersPreviewRespond, error) {
	if err := checkReadme(req.Readme); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.ToolName)
	if name == "" {
		return nil, xerr.New(xerr.BadRequest, "tool_name is required")
	}

	key := "params:" + extraction.EngineVersion + ":" + util.ContentHash(req.Readme, name)
	var out respond.ParametersPreviewRespond
	if s.load(ctx, key, &out) {
		out.Cached = true
		return &out, nil
	}

	w, pr, found := extraction.ExtractToolParameters(req.Readme, name)
	out = respond.ParametersPreviewRespond{
		ToolName:        name,
		Found:           found,
		Anchor:          w.Anchor,
		WindowStart:     w.Start,
		WindowEnd:       w.End,
		LowConfidence:   w.LowConfidence,
		Strategy:        pr.Strategy,
		MalformedBlocks: pr.MalformedBlocks,
		Parameters:      pr.Parameters,
		EngineVersion:   extraction.EngineVersion,
	}

	s.store(ctx, key, out)
	return &out, nil
}

func checkReadme(readme string) error {
	if strings.TrimSpace(readme) == "" {
		return xerr.New(xerr.BadRequest, "readme is required")
	}
	if len(readme) > maxReadmeBytes {
		return xerr.New(xerr.BadRequest, "readme too large")
	}
	return nil
}

func (s *extractionServiceImpl) load(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		zlog.Warn("preview cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *extractionServiceImpl) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		zlog.Warn("preview cache set failed", zap.String("key", key), zap.Error(err))
	}
}

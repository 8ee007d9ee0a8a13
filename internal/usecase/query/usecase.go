package query

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/store"
	"github.com/driftlab/research-router/internal/synthesizer"
	"github.com/driftlab/research-router/internal/tracing"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const answerPreviewLimit = 200
const defaultLogLimit = 50

// QueryUsecase implements the ask flow: route, run agents, synthesize, trace.
type QueryUsecase struct {
	store    store.Store
	router   Router
	synth    *synthesizer.Synthesizer
	web      WebSearchConnector
	arxiv    ArxivConnector
	recorder tracing.Recorder
	topK     int
	logger   *zap.Logger
}

func NewUsecase(
	store store.Store,
	router Router,
	synth *synthesizer.Synthesizer,
	web WebSearchConnector,
	arxiv ArxivConnector,
	recorder tracing.Recorder,
	topK int,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		store:    store,
		router:   router,
		synth:    synth,
		web:      web,
		arxiv:    arxiv,
		recorder: recorder,
		topK:     topK,
		logger:   logger,
	}
}

// Ask routes the query, runs the selected agents strictly in order, builds
// the synthesis prompt and returns the answer. Individual agent failures are
// folded into the prompt; only an empty query fails the request.
func (uc *QueryUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query", entity.ErrMissingField)
	}

	requestID := uuid.New().String()
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("ask_id", requestID)))

	pdfLoaded := false
	if req.DocumentID != "" {
		loaded, err := uc.store.Has(ctx, req.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("check document: %w", err)
		}
		pdfLoaded = loaded
	}

	decision := uc.router.Decide(req.Query, pdfLoaded)

	ctxzap.Info(ctx, "query routed",
		zap.Any("agents", decision.Agents),
		zap.String("rationale", decision.Rationale),
		zap.Bool("pdf_loaded", pdfLoaded),
	)

	outcomes := uc.runAgents(ctx, decision, req)

	prompt := uc.synth.BuildPrompt(synthesizer.PromptInput{
		Query:      req.Query,
		Outcomes:   outcomes,
		AgentsUsed: decision.Agents,
		Rationale:  decision.Rationale,
	})
	answer := uc.synth.Answer(ctx, prompt)

	uc.recorder.Record(entity.TraceRecord{
		Action:          entity.TraceActionAsk,
		RequestID:       requestID,
		Query:           req.Query,
		DocumentID:      req.DocumentID,
		AgentsCalled:    decision.Agents,
		Rationale:       decision.Rationale,
		RetrievedChunks: outcomes.Retrieved,
		AnswerPreview:   preview(answer),
	})

	return &entity.AskResult{
		Answer:     answer,
		AgentsUsed: decision.Agents,
		Rationale:  decision.Rationale,
		RequestID:  requestID,
	}, nil
}

// GetLogs returns the last limit trace records.
func (uc *QueryUsecase) GetLogs(ctx context.Context, limit int) []entity.TraceRecord {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	return uc.recorder.Recent(limit)
}

// preview keeps the first answerPreviewLimit characters, never splitting a
// rune across the cut.
func preview(answer string) string {
	if utf8.RuneCountInString(answer) <= answerPreviewLimit {
		return answer
	}
	return string([]rune(answer)[:answerPreviewLimit])
}

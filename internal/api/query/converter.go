package query

import "github.com/driftlab/research-router/internal/entity"

func toAskResponse(result *entity.AskResult) entity.AskResponse {
	agents := make([]string, len(result.AgentsUsed))
	for i, a := range result.AgentsUsed {
		agents[i] = string(a)
	}
	return entity.AskResponse{
		Answer:     result.Answer,
		AgentsUsed: agents,
		Rationale:  result.Rationale,
		RequestID:  result.RequestID,
	}
}

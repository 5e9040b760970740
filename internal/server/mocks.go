package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"mockline/internal/engine"
)

func mockInput(ctx context.Context, body MockRequest) engine.MockInput {
	in := engine.MockInput{
		Endpoint:     body.Endpoint,
		Method:       body.Method,
		StatusCode:   body.StatusCode,
		DelayMs:      body.Delay,
		ChaosEnabled: body.ChaosMode,
		ChaosLevel:   body.ChaosLevel,
	}
	if text, ok := templateText(ctx); ok {
		in.Template = &text
	}
	return in
}

func registerMocks(api huma.API, e engine.Engine, log *zap.SugaredLogger) {
	mockErrors := []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
	}

	huma.Register(api, huma.Operation{
		OperationID:   "create-mock",
		Method:        http.MethodPost,
		Path:          "/mock",
		Summary:       "Create a mock API",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body MockRequest `json:"body"`
	}) (*struct {
		Body CreateMockResponse `json:"body"`
	}, error) {
		m, err := e.CreateMock(ctx, actorIDFromContext(ctx), mockInput(ctx, input.Body))
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body CreateMockResponse `json:"body"`
		}{Body: CreateMockResponse{
			MockID:   m.MockID,
			ID:       m.ID,
			Response: e.Preview(m.Template),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-mocks",
		Method:      http.MethodGet,
		Path:        "/mock/manage",
		Summary:     "List the caller's mock APIs, newest first",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body MockListResponse `json:"body"`
	}, error) {
		items, err := e.ListMocks(ctx, actorIDFromContext(ctx))
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body MockListResponse `json:"body"`
		}{Body: MockListResponse{MockAPIs: mapMocks(items)}}, nil
	})

	type mockPath struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-mock",
		Method:      http.MethodGet,
		Path:        "/mock/manage/{id}",
		Summary:     "Get a mock API",
		Errors:      mockErrors,
	}, func(ctx context.Context, input *mockPath) (*struct {
		Body MockEnvelope `json:"body"`
	}, error) {
		m, err := e.GetMock(ctx, actorIDFromContext(ctx), input.ID)
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body MockEnvelope `json:"body"`
		}{Body: MockEnvelope{MockAPI: mockResponse(m)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-mock",
		Method:      http.MethodPut,
		Path:        "/mock/manage/{id}",
		Summary:     "Update a mock API",
		Description: "Fields left out of the body keep their value. The public mockId never changes.",
		Errors:      mockErrors,
	}, func(ctx context.Context, input *struct {
		ID   string      `path:"id"`
		Body MockRequest `json:"body"`
	}) (*struct {
		Body MockEnvelope `json:"body"`
	}, error) {
		m, err := e.UpdateMock(ctx, actorIDFromContext(ctx), input.ID, mockInput(ctx, input.Body))
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body MockEnvelope `json:"body"`
		}{Body: MockEnvelope{MockAPI: mockResponse(m)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-mock",
		Method:      http.MethodDelete,
		Path:        "/mock/manage/{id}",
		Summary:     "Delete a mock API",
		Errors:      mockErrors,
	}, func(ctx context.Context, input *mockPath) (*struct {
		Body DeleteResponse `json:"body"`
	}, error) {
		if err := e.DeleteMock(ctx, actorIDFromContext(ctx), input.ID); err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body DeleteResponse `json:"body"`
		}{Body: DeleteResponse{Success: true}}, nil
	})
}

func registerPreview(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "preview-template",
		Method:      http.MethodPost,
		Path:        "/mock/preview",
		Summary:     "Materialize a template without saving it",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body PreviewRequest `json:"body"`
	}) (*struct {
		Body PreviewResponse `json:"body"`
	}, error) {
		text, ok := templateText(ctx)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "template is required", nil)
		}
		return &struct {
			Body PreviewResponse `json:"body"`
		}{Body: PreviewResponse{Response: e.Preview(text)}}, nil
	})
}

func registerSettings(api huma.API, e engine.Engine, log *zap.SugaredLogger) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Get the caller's settings",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SettingsResponse `json:"body"`
	}, error) {
		s, err := e.LoadSettings(ctx, actorIDFromContext(ctx))
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body SettingsResponse `json:"body"`
		}{Body: settingsResponse(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-settings",
		Method:      http.MethodPut,
		Path:        "/settings",
		Summary:     "Merge fields into the caller's settings",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body SettingsRequest `json:"body"`
	}) (*struct {
		Body SettingsResponse `json:"body"`
	}, error) {
		s, err := e.SaveSettings(ctx, actorIDFromContext(ctx), engine.SettingsInput{
			APIBaseURL:      input.Body.APIBaseURL,
			EnableChaosMode: input.Body.EnableChaosMode,
			ChaosLevel:      input.Body.ChaosLevel,
		})
		if err != nil {
			return nil, handleError(log, err)
		}
		return &struct {
			Body SettingsResponse `json:"body"`
		}{Body: settingsResponse(s)}, nil
	})
}

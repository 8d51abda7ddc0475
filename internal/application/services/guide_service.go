package services

import (
	"context"
	"sync"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/composer"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/entities"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/mailto"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
	apperrors "github.com/heartclinicmelbourne/patient-resources/backend/pkg/errors"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/utils"
)

// multiProcedureFilename is the download name when more than one procedure
// is selected; single-procedure guides are named after the procedure slug.
const multiProcedureFilename = "heart-clinic-procedures.pdf"

// GeneratedGuide is the output of one guide generation: the PDF bytes, the
// download filename and the resolved procedure names in selection order.
type GeneratedGuide struct {
	Filename   string
	Data       []byte
	Procedures []string
	Pages      int
}

// GuideService generates procedure guide PDFs from a session's selection and
// composes the matching mail handoff. Generation is always performed fresh
// from the current selection; nothing is cached between runs.
type GuideService struct {
	selections repositories.SelectionRepository
	procedures repositories.ProcedureRepository
	assets     providers.AssetProvider
	renderer   composer.Renderer
	notifier   providers.Notifier
	mail       *mailto.Composer
	clinic     config.ClinicConfig
	metrics    *observability.Metrics

	// generating tracks in-flight sessions. The flag is advisory, for UI
	// state only; concurrent generations for one session are not prevented
	// and simply race to completion.
	mu         sync.Mutex
	generating map[string]bool
}

// NewGuideService creates a new guide service
func NewGuideService(
	selections repositories.SelectionRepository,
	procedures repositories.ProcedureRepository,
	assets providers.AssetProvider,
	renderer composer.Renderer,
	notifier providers.Notifier,
	mail *mailto.Composer,
	clinic config.ClinicConfig,
	metrics *observability.Metrics,
) *GuideService {
	return &GuideService{
		selections: selections,
		procedures: procedures,
		assets:     assets,
		renderer:   renderer,
		notifier:   notifier,
		mail:       mail,
		clinic:     clinic,
		metrics:    metrics,
		generating: make(map[string]bool),
	}
}

// IsGenerating reports whether a generation is in flight for the session
func (s *GuideService) IsGenerating(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating[sessionID]
}

func (s *GuideService) setGenerating(sessionID string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.generating[sessionID] = true
	} else {
		delete(s.generating, sessionID)
	}
}

// Generate renders the session's selected procedures into a PDF guide. An
// empty selection fails before any layout or asset work happens. Asset
// fetch failures degrade the output (built-in fonts, no logo) but never
// fail the generation.
func (s *GuideService) Generate(ctx context.Context, sessionID string) (*GeneratedGuide, error) {
	ctx, span := observability.StartSpan(ctx, "GuideService.Generate")
	defer span.End()

	records, err := s.resolveSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.setGenerating(sessionID, true)
	defer s.setGenerating(sessionID, false)

	start := time.Now()
	guide, err := s.render(ctx, records)
	observability.RecordGuideMetric(ctx, s.metrics, len(records), pageCount(guide), time.Since(start), err == nil)

	if err != nil {
		s.notifier.Notify(ctx, "Something went wrong while creating your guide. Please try again.", providers.NotificationError)
		return nil, err
	}

	s.notifier.Notify(ctx, "Your procedure guide is ready.", providers.NotificationSuccess)
	return guide, nil
}

// ComposeEmail builds the mailto URI for emailing a generated guide. The
// selection must be non-empty; the body lists procedure names in selection
// order and reminds the sender to attach the downloaded file.
func (s *GuideService) ComposeEmail(ctx context.Context, sessionID string) (string, error) {
	records, err := s.resolveSelection(ctx, sessionID)
	if err != nil {
		return "", err
	}

	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Name
	}
	return s.mail.GuideEmail(names), nil
}

// resolveSelection loads the session's selection and resolves it to full
// records in insertion order. IDs that no longer resolve are dropped; a
// selection that resolves to nothing is treated the same as an empty one.
func (s *GuideService) resolveSelection(ctx context.Context, sessionID string) ([]*entities.ProcedureRecord, error) {
	sel, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sel.Items) == 0 {
		return nil, apperrors.NewValidationError("no procedures selected")
	}

	records, err := s.procedures.GetByIDs(ctx, sel.Items)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.ProcedureRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	ordered := make([]*entities.ProcedureRecord, 0, len(sel.Items))
	for _, id := range sel.Items {
		if record, ok := byID[id]; ok {
			ordered = append(ordered, record)
		} else {
			observability.LoggerFromContext(ctx).Warn().
				Str("procedure_id", id).
				Msg("Selected procedure no longer in catalog, skipping")
		}
	}

	if len(ordered) == 0 {
		return nil, apperrors.NewValidationError("no procedures selected")
	}
	return ordered, nil
}

func (s *GuideService) render(ctx context.Context, records []*entities.ProcedureRecord) (*GeneratedGuide, error) {
	logger := observability.LoggerFromContext(ctx)

	fonts, err := s.assets.FontPair(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Font fetch failed, using built-in fonts")
		observability.RecordAssetFetchError(ctx, s.metrics, "fonts")
		fonts = nil
	}

	logo, err := s.assets.Logo(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Logo fetch failed, rendering without logo")
		observability.RecordAssetFetchError(ctx, s.metrics, "logo")
		logo = nil
	}

	engine := composer.NewEngine(composer.LayoutConfig{
		ClinicName: s.clinic.Name,
		Phone:      s.clinic.Phone,
		Website:    s.clinic.Website,
		HasLogo:    logo != nil,
	})

	doc, err := engine.Layout(records)
	if err != nil {
		return nil, apperrors.NewInternalError("guide layout failed", err)
	}

	data, err := s.renderer.Render(doc, composer.RenderAssets{Fonts: fonts, Logo: logo})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Name
	}

	return &GeneratedGuide{
		Filename:   downloadFilename(records),
		Data:       data,
		Procedures: names,
		Pages:      len(doc.Pages),
	}, nil
}

// downloadFilename names single-procedure guides after the procedure and
// multi-procedure guides with a fixed clinic-wide name
func downloadFilename(records []*entities.ProcedureRecord) string {
	if len(records) == 1 {
		return utils.Slugify(records[0].Name) + "-guide.pdf"
	}
	return multiProcedureFilename
}

func pageCount(guide *GeneratedGuide) int {
	if guide == nil {
		return 0
	}
	return guide.Pages
}

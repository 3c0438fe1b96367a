package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/crypto"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/pdfstamp"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/internal/typeset"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/internal/validators"
)

type Services struct {
	Propagation PropagationService
	Signing     SigningService
	Correction  CorrectionService
	Render      RenderService
	Tokens      TokenService
}

func NewServices(repos *store.Repositories, cfg *config.StructuredConfig, sender notify.Sender, logger *logger.Logger) (*Services, error) {
	cipherKey, err := cfg.App.CipherKeyBytes()
	if err != nil {
		return nil, err
	}
	fieldCipher, err := crypto.NewFieldCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("field cipher init failed: %w", err)
	}

	face, err := renderFace(cfg.Render)
	if err != nil {
		return nil, err
	}
	stamper := pdfstamp.NewStamper(face, cfg.Render.MaxFontSize, cfg.Render.MinFontSize, logger)

	render := NewRenderService(repos, stamper, fieldCipher, crypto.NewProtector(), utils.NewUUIDGenerator(), cfg.Workers.AssemblyConcurrency, logger)
	assembler := render.(documentAssembler)

	tokens := NewTokenService(repos.Tokens, cfg.App, logger)

	return &Services{
		Propagation: NewPropagationService(repos, logger),
		Signing:     NewSigningService(repos, assembler, validators.NewFieldValueValidator(), fieldCipher, sender, logger),
		Correction:  NewCorrectionService(repos, assembler, tokens, sender, logger),
		Render:      render,
		Tokens:      tokens,
	}, nil
}

// renderFace resolves the measuring face: a configured TTF file when given,
// otherwise the built-in Helvetica metrics.
func renderFace(cfg config.Render) (typeset.Face, error) {
	if cfg.FontPath == "" {
		return typeset.Helvetica(), nil
	}

	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("font file read failed: %w", err)
	}

	name := filepath.Base(cfg.FontPath)
	face, err := typeset.ParseTTF(name, data)
	if err != nil {
		return nil, fmt.Errorf("font file parse failed: %w", err)
	}

	return face, nil
}

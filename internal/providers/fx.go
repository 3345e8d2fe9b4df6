package providers

import (
	"github.com/smallbiznis/quill/internal/providers/email"
	"github.com/smallbiznis/quill/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)

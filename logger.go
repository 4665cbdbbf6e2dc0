package bitfield

import (
	"github.com/moisespsena-go/logging"
	path_helpers "github.com/moisespsena-go/path-helpers"
)

var log = logging.GetOrCreateLogger(path_helpers.GetCalledDir())

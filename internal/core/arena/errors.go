package arena

import "errors"

var ErrInvalidTuning = errors.New("arena: invalid tuning")

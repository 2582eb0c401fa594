package processor

import "github.com/devopsext/utils"

var log = utils.GetLog()

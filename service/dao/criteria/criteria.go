package criteria

import (
	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/service/dao"
)

// Match reports whether a record satisfies every supplied parameter.
func Match(record *model.Record, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case "MsgType":
			if !matchValue(record.MsgType.String(), parameter.Value) {
				return false
			}
		case "SCID":
			if record.SCID == nil || !matchValue(record.SCID.String(), parameter.Value) {
				return false
			}
		}
	}
	return true
}

func matchValue(actual string, expected interface{}) bool {
	switch value := expected.(type) {
	case string:
		return actual == value
	case []string:
		for _, candidate := range value {
			if actual == candidate {
				return true
			}
		}
		return false
	}
	return true
}

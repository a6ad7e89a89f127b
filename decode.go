package brreg

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// validate performs the structural check on decoded records. A record that
// unmarshals but fails validation is a decode failure, never a registry error.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeInto unmarshals a JSON payload into T and validates it.
func decodeInto[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if err := validate.Struct(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeList unmarshals a bare JSON array into []T, validating each element.
func decodeList[T any](data []byte) ([]T, error) {
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for i := range list {
		if err := validate.Struct(&list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// jsonArray reports whether the payload's first token opens an array. Some
// code-list endpoints return a bare array instead of an _embedded envelope.
func jsonArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// deletionProbe carries only the fields that discriminate a deletion record.
type deletionProbe struct {
	Slettedato    string `json:"slettedato"`
	ResponsKlasse string `json:"respons_klasse"`
}

// decodeEnhetResult parses a lookup payload into an active entity or, when the
// payload carries slettedato / respons_klasse, a deletion record. If the
// deletion record itself fails to parse the payload falls back to Enhet.
func decodeEnhetResult(data []byte) (*EnhetResult, error) {
	var probe deletionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.ResponsKlasse == "SlettetEnhet" || probe.Slettedato != "" {
		if slettet, err := decodeInto[SlettetEnhet](data); err == nil {
			return &EnhetResult{Slettet: slettet}, nil
		}
	}
	enhet, err := decodeInto[Enhet](data)
	if err != nil {
		return nil, err
	}
	return &EnhetResult{Enhet: enhet}, nil
}

// decodeUnderenhetResult parses a sub-entity lookup payload, discriminating
// deletion records the same way as decodeEnhetResult.
func decodeUnderenhetResult(data []byte) (*UnderenhetResult, error) {
	var probe deletionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.ResponsKlasse == "SlettetEnhet" || probe.Slettedato != "" {
		if slettet, err := decodeInto[SlettetUnderenhet](data); err == nil {
			return &UnderenhetResult{Slettet: slettet}, nil
		}
	}
	underenhet, err := decodeInto[Underenhet](data)
	if err != nil {
		return nil, err
	}
	return &UnderenhetResult{Underenhet: underenhet}, nil
}

// decodeKommuner accepts both the bare array and the _embedded envelope form.
func decodeKommuner(data []byte) (*Kommuner, error) {
	if jsonArray(data) {
		list, err := decodeList[Kommune](data)
		if err != nil {
			return nil, err
		}
		return &Kommuner{Embedded: &KommunerEmbedded{Kommuner: list}}, nil
	}
	return decodeInto[Kommuner](data)
}

// decodeOrganisasjonsformer accepts both the bare array and the envelope form.
func decodeOrganisasjonsformer(data []byte) (*Organisasjonsformer, error) {
	if jsonArray(data) {
		list, err := decodeList[Organisasjonsform](data)
		if err != nil {
			return nil, err
		}
		return &Organisasjonsformer{Embedded: &OrganisasjonsformerEmbedded{Organisasjonsformer: list}}, nil
	}
	return decodeInto[Organisasjonsformer](data)
}

// decodeRolletyper accepts both the bare array and the envelope form.
func decodeRolletyper(data []byte) (*Rolletyper, error) {
	if jsonArray(data) {
		list, err := decodeList[Kode](data)
		if err != nil {
			return nil, err
		}
		return &Rolletyper{Embedded: &RolletyperEmbedded{Rolletyper: list}}, nil
	}
	return decodeInto[Rolletyper](data)
}

// decodeRollegruppetyper accepts both the bare array and the envelope form.
func decodeRollegruppetyper(data []byte) (*Rollegruppetyper, error) {
	if jsonArray(data) {
		list, err := decodeList[Kode](data)
		if err != nil {
			return nil, err
		}
		return &Rollegruppetyper{Embedded: &RollegruppetyperEmbedded{Rollegruppetyper: list}}, nil
	}
	return decodeInto[Rollegruppetyper](data)
}

// decodeRolleRepresentanter accepts both the bare array and the envelope form.
func decodeRolleRepresentanter(data []byte) (*RolleRepresentanter, error) {
	if jsonArray(data) {
		list, err := decodeList[Kode](data)
		if err != nil {
			return nil, err
		}
		return &RolleRepresentanter{Embedded: &RolleRepresentanterEmbedded{Representanter: list}}, nil
	}
	return decodeInto[RolleRepresentanter](data)
}

// decodeServices parses the registry's service index, an arbitrary link map.
func decodeServices(data []byte) (map[string]any, error) {
	var services map[string]any
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}
	return services, nil
}

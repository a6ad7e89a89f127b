package brreg

import "context"

// Code-list endpoints. These are small, rarely changing data sets and gain
// the most from response caching.

// GetKommuner retrieves the municipality code list.
func (c *Client) GetKommuner(ctx context.Context) (*Kommuner, error) {
	const op = "kommuner"
	v, err := c.getJSON(ctx, op, op, "/kommuner", nil, func(body []byte) (any, error) {
		return decodeKommuner(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Kommuner), nil
}

// GetKommune retrieves a single municipality by its number.
func (c *Client) GetKommune(ctx context.Context, nummer string) (*Kommune, error) {
	const op = "kommune"
	if nummer == "" {
		return nil, validationError(op, "kommunenummer must not be empty", nil)
	}
	return getTyped(ctx, c, op, fingerprintID(op, nummer), "/kommuner/"+nummer, nil, decodeInto[Kommune])
}

// GetOrganisasjonsformer retrieves every organization form code.
func (c *Client) GetOrganisasjonsformer(ctx context.Context) (*Organisasjonsformer, error) {
	const op = "organisasjonsformer"
	v, err := c.getJSON(ctx, op, op, "/organisasjonsformer", nil, func(body []byte) (any, error) {
		return decodeOrganisasjonsformer(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Organisasjonsformer), nil
}

// GetOrganisasjonsformerEnheter retrieves the organization forms valid for
// entities.
func (c *Client) GetOrganisasjonsformerEnheter(ctx context.Context) (*Organisasjonsformer, error) {
	const op = "organisasjonsformer_enheter"
	v, err := c.getJSON(ctx, op, op, "/organisasjonsformer/enheter", nil, func(body []byte) (any, error) {
		return decodeOrganisasjonsformer(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Organisasjonsformer), nil
}

// GetOrganisasjonsformerUnderenheter retrieves the organization forms valid
// for sub-entities.
func (c *Client) GetOrganisasjonsformerUnderenheter(ctx context.Context) (*Organisasjonsformer, error) {
	const op = "organisasjonsformer_underenheter"
	v, err := c.getJSON(ctx, op, op, "/organisasjonsformer/underenheter", nil, func(body []byte) (any, error) {
		return decodeOrganisasjonsformer(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Organisasjonsformer), nil
}

// GetOrganisasjonsform retrieves a single organization form by its code.
func (c *Client) GetOrganisasjonsform(ctx context.Context, kode string) (*Organisasjonsform, error) {
	const op = "organisasjonsform"
	if kode == "" {
		return nil, validationError(op, "organisasjonsform code must not be empty", nil)
	}
	return getTyped(ctx, c, op, fingerprintID(op, kode), "/organisasjonsformer/"+kode, nil, decodeInto[Organisasjonsform])
}

// GetRolletyper retrieves the role type code list.
func (c *Client) GetRolletyper(ctx context.Context) (*Rolletyper, error) {
	const op = "rolletyper"
	v, err := c.getJSON(ctx, op, op, "/roller/rolletyper", nil, func(body []byte) (any, error) {
		return decodeRolletyper(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Rolletyper), nil
}

// GetRolleRepresentanter retrieves the role representative type code list.
func (c *Client) GetRolleRepresentanter(ctx context.Context) (*RolleRepresentanter, error) {
	const op = "rolle_representanter"
	v, err := c.getJSON(ctx, op, op, "/roller/representanter", nil, func(body []byte) (any, error) {
		return decodeRolleRepresentanter(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RolleRepresentanter), nil
}

// GetRollegruppetyper retrieves the role group type code list.
func (c *Client) GetRollegruppetyper(ctx context.Context) (*Rollegruppetyper, error) {
	const op = "rollegruppetyper"
	v, err := c.getJSON(ctx, op, op, "/roller/rollegruppetyper", nil, func(body []byte) (any, error) {
		return decodeRollegruppetyper(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Rollegruppetyper), nil
}

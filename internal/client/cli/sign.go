package cli

import (
	"context"

	"github.com/signdesk/signdesk/internal/client/api"
)

// Sign walks one signer through the signing flow: pick a method, capture,
// and for the identity methods run the challenge round trip.
func (a *App) Sign(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "-Enter document id")
	if err != nil {
		return err
	}
	method, err := GetSimpleText(a.reader, "-Choose method: draw, type, aadhaar, dsc")
	if err != nil {
		return err
	}

	req := api.SignRequest{Method: method}

	switch method {
	case "draw":
		req.Image, err = GetSimpleText(a.reader, "-Paste signature image data")
		if err != nil {
			return err
		}

	case "type":
		req.Name, err = GetSimpleText(a.reader, "-Enter your name")
		if err != nil {
			return err
		}
		req.Style, err = GetSimpleText(a.reader, "-Choose style (cursive, print, signature)")
		if err != nil {
			return err
		}

	case "aadhaar", "dsc":
		prompt := "-Enter 12-digit Aadhaar number"
		if method == "dsc" {
			prompt = "-Enter 10-digit DSC serial"
		}
		idNumber, err := GetSimpleText(a.reader, prompt)
		if err != nil {
			return err
		}
		if err := a.api.RequestChallenge(ctx, id, method, idNumber); err != nil {
			printlnFn("Challenge request failed:", err)
			return err
		}
		printlnFn("Challenge code sent")
		req.Code, err = GetSimpleText(a.reader, "-Enter the 6-digit code")
		if err != nil {
			return err
		}

	default:
		printlnFn("Unknown method:", method)
		return nil
	}

	doc, err := a.api.Sign(ctx, id, req)
	if err != nil {
		printlnFn("Signing failed:", err)
		return err
	}
	printlnFn("Signed. Document status:", displayStatus(doc))
	return nil
}

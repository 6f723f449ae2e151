package e2e

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps wires the KYC flow step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.Reset()
		return c, nil
	})

	ctx.Step(`^I create a transaction for "([^"]*)" born "([^"]*)"$`, func(name, dob string) error {
		if err := tc.PostJSON("/kyc/transactions", map[string]string{
			"name":        name,
			"dateOfBirth": dob,
		}); err != nil {
			return err
		}
		id, err := tc.Field("transactionId")
		if err != nil {
			return err
		}
		s, ok := id.(string)
		if !ok || s == "" {
			return fmt.Errorf("transactionId missing in %v", tc.lastBody)
		}
		tc.txnID = s
		return nil
	})

	ctx.Step(`^I upload the (passport|visa|flight-ticket|aadhar) documents?$`, func(route string) error {
		return tc.PostMultipart(intakePath(tc.txnID, route), filesFor(route), nil)
	})

	ctx.Step(`^I upload the (passport|visa|flight-ticket|aadhar) documents? simulating failure$`, func(route string) error {
		return tc.PostMultipart(intakePath(tc.txnID, route), filesFor(route),
			map[string]string{"simulateFailure": "all"})
	})

	ctx.Step(`^the response status is (\d+)$`, func(code int) error {
		if tc.lastStatus != code {
			return fmt.Errorf("expected status %d, got %d (body %v)", code, tc.lastStatus, tc.lastBody)
		}
		return nil
	})

	ctx.Step(`^the response field "([^"]*)" is "([^"]*)"$`, func(field, want string) error {
		v, err := tc.Field(field)
		if err != nil {
			return err
		}
		if got := fmt.Sprintf("%v", v); got != want {
			return fmt.Errorf("field %q: expected %q, got %q", field, want, got)
		}
		return nil
	})

	ctx.Step(`^the overall status is "([^"]*)"$`, func(want string) error {
		if err := tc.Get("/kyc/transactions/" + tc.txnID + "/status"); err != nil {
			return err
		}
		v, err := tc.Field("status")
		if err != nil {
			return err
		}
		if v != want {
			return fmt.Errorf("expected overall status %q, got %v", want, v)
		}
		return nil
	})
}

func intakePath(txnID, route string) string {
	return "/kyc/transactions/" + txnID + "/documents/" + route
}

func filesFor(route string) []string {
	switch route {
	case "visa":
		return []string{"visaImage"}
	case "flight-ticket":
		return []string{"ticketImage"}
	default:
		if strings.HasPrefix(route, "passport") || route == "aadhar" {
			return []string{"frontImage", "backImage"}
		}
		return nil
	}
}

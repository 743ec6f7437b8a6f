package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

// register signs up a fresh account and lands on the item list.
func (suite *E2ETestSuite) register(email, password string) {
	_, err := suite.page.Goto(appURL + "/register")
	require.NoError(suite.T(), err, "could not open registration page")

	err = suite.expect.Locator(suite.page.Locator(".register-form")).ToBeVisible()
	require.NoError(suite.T(), err, "registration form not visible")

	err = suite.page.Locator("input[name=email]").Fill(email)
	require.NoError(suite.T(), err, "failed to fill email")
	err = suite.page.Locator("input[name=password]").Fill(password)
	require.NoError(suite.T(), err, "failed to fill password")
	err = suite.page.Locator("input[name=confirm_password]").Fill(password)
	require.NoError(suite.T(), err, "failed to fill password confirmation")

	err = suite.page.Locator(".register-btn").Click()
	require.NoError(suite.T(), err, "failed to click register")

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not land on item list after registration")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.register("flow@example.com", "testpass123")

	// Create an item with the seeded "Work" category
	err := suite.page.Locator(".create-link").Click()
	require.NoError(suite.T(), err, "failed to open create form")

	err = suite.expect.Locator(suite.page.Locator("#item-form")).ToBeVisible()
	require.NoError(suite.T(), err, "item form not visible")

	err = suite.page.Locator("input[name=description]").Fill("Buy milk")
	require.NoError(suite.T(), err, "failed to fill description")

	_, err = suite.page.Locator("select[name=category_id]").SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{"Work"},
	})
	require.NoError(suite.T(), err, "failed to select category")

	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit item")

	// Back on the list with the new item
	err = suite.expect.Locator(suite.page.Locator(".item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "item count mismatch")

	item := suite.page.Locator(".item").First()
	err = suite.expect.Locator(item.Locator("a").First()).ToHaveText("Buy milk")
	require.NoError(suite.T(), err, "description mismatch")

	// Details show the attached category
	err = item.Locator("a").First().Click()
	require.NoError(suite.T(), err, "failed to open details")

	err = suite.expect.Locator(suite.page.Locator(".item-category")).ToHaveCount(1)
	require.NoError(suite.T(), err, "expected one attached category")
	err = suite.expect.Locator(suite.page.Locator(".item-category")).ToContainText("Work")
	require.NoError(suite.T(), err, "category name mismatch")

	// Detach the category; we land back on the list
	err = suite.page.Locator(".detach-btn").Click()
	require.NoError(suite.T(), err, "failed to detach category")

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not return to the item list after detach")
	err = suite.expect.Locator(suite.page.Locator(".item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "item should survive the detach")

	// Re-open details; no categories remain
	err = suite.page.Locator(".item").First().Locator("a").First().Click()
	require.NoError(suite.T(), err, "failed to reopen details")

	err = suite.expect.Locator(suite.page.Locator(".item-category")).ToHaveCount(0)
	require.NoError(suite.T(), err, "category should be detached")
	err = suite.expect.Locator(suite.page.Locator("h1")).ToHaveText("Buy milk")
	require.NoError(suite.T(), err, "description mismatch after detach")
}

func (suite *E2ETestSuite) TestLoginRejectsWrongPassword() {
	suite.register("wrongpw@example.com", "testpass123")

	// Log out, then try a bad login
	err := suite.page.Locator(".logout-btn").Click()
	require.NoError(suite.T(), err, "failed to log out")

	err = suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible after logout")

	err = suite.page.Locator("input[name=email]").Fill("wrongpw@example.com")
	require.NoError(suite.T(), err)
	err = suite.page.Locator("input[name=password]").Fill("not-the-password")
	require.NoError(suite.T(), err)
	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err)

	err = suite.expect.Locator(suite.page.Locator(".error")).ToContainText("Invalid email or password")
	require.NoError(suite.T(), err, "expected a generic credentials error")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

package client

import (
	"net/url"
	"strconv"
)

const (
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathVerifySend     = "/api/auth/verify/send"
	PathVerify         = "/api/auth/verify"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"
	PathAuthMe         = "/api/auth/me"
	PathLogout         = "/api/auth/logout"

	PathUpload       = "/api/files/upload"
	PathFiles        = "/api/files"
	PathQuota        = "/api/files/quota"
	PathSharedWithMe = "/api/files/shared/with-me"
	PathSharedByMe   = "/api/files/shared/by-me"
	PathFavorites    = "/api/files/favorites"

	PathUserMe      = "/api/user/me"
	PathUserPhoto   = "/api/user/profile/photo"
	PathUserDelete  = "/api/user/delete"
	pathUserEmails  = "/api/user/emails"
	pathVerifyState = "/api/auth/verify/status"

	PathCreateOrder   = "/api/billing/payment/order"
	PathVerifyPayment = "/api/billing/payment/verify"
	PathBillingStatus = "/api/billing/status"
)

func filePath(id, suffix string) string {
	return PathFiles + "/" + url.PathEscape(id) + suffix
}

func withQuery(p string, q url.Values) string {
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}

func VerifyStatusPath(email string) string {
	q := url.Values{}
	if email != "" {
		q.Set("email", email)
	}
	return withQuery(pathVerifyState, q)
}

func FilesPath(visibility string) string {
	q := url.Values{}
	if visibility != "" {
		q.Set("visibility", visibility)
	}
	return withQuery(PathFiles, q)
}

func FilePath(id string) string            { return filePath(id, "") }
func VisibilityPath(id string) string      { return filePath(id, "/visibility") }
func ViewPath(id string) string            { return filePath(id, "/view") }
func DownloadURLPath(id string) string     { return filePath(id, "/download-url") }
func SharePath(id string) string           { return filePath(id, "/share") }
func FilesByUserPath(userID string) string { return PathFiles + "/user/" + url.PathEscape(userID) }

func FavoritePath(id string, value bool) string {
	return withQuery(filePath(id, "/favorite"), url.Values{"value": {strconv.FormatBool(value)}})
}

func UserEmailsPath(limit int) string {
	return withQuery(pathUserEmails, url.Values{"limit": {strconv.Itoa(limit)}})
}

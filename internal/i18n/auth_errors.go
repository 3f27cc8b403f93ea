package i18n

var authErrors = map[Lang]map[string]string{
	ID: {
		"EMAIL_NOT_FOUND":             "Email tidak terdaftar.",
		"INVALID_PASSWORD":            "Password salah.",
		"INVALID_LOGIN_CREDENTIALS":   "Email atau password salah.",
		"USER_DISABLED":               "Akun ini telah dinonaktifkan.",
		"TOO_MANY_ATTEMPTS_TRY_LATER": "Terlalu banyak percobaan. Silakan coba lagi nanti.",
		"INVALID_EMAIL":               "Format email tidak valid.",
		"MISSING_PASSWORD":            "Password wajib diisi.",
		"WEAK_PASSWORD":               "Password minimal 6 karakter.",
		"EXPIRED_OOB_CODE":            "Link reset password sudah kedaluwarsa.",
		"INVALID_OOB_CODE":            "Link reset password tidak valid atau sudah digunakan.",
		"INVALID_ID_TOKEN":            "Sesi login tidak valid. Silakan masuk kembali.",
		"USER_NOT_FOUND":              "Akun tidak ditemukan.",
		"OPERATION_NOT_ALLOWED":       "Metode login ini tidak diaktifkan.",
	},
	EN: {
		"EMAIL_NOT_FOUND":             "This email is not registered.",
		"INVALID_PASSWORD":            "Incorrect password.",
		"INVALID_LOGIN_CREDENTIALS":   "Incorrect email or password.",
		"USER_DISABLED":               "This account has been disabled.",
		"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts. Please try again later.",
		"INVALID_EMAIL":               "Invalid email address.",
		"MISSING_PASSWORD":            "Password is required.",
		"WEAK_PASSWORD":               "Password must be at least 6 characters.",
		"EXPIRED_OOB_CODE":            "This password reset link has expired.",
		"INVALID_OOB_CODE":            "This password reset link is invalid or has already been used.",
		"INVALID_ID_TOKEN":            "Your sign-in session is invalid. Please sign in again.",
		"USER_NOT_FOUND":              "Account not found.",
		"OPERATION_NOT_ALLOWED":       "This sign-in method is not enabled.",
	},
}

var authDefault = map[Lang]string{
	ID: "Terjadi kesalahan saat autentikasi. Silakan coba lagi.",
	EN: "An authentication error occurred. Please try again.",
}

// AuthErrorMessage maps an identity provider error code to a user-facing message.
// Unknown codes get the generic message for the language.
func AuthErrorMessage(lang Lang, code string) string {
	if _, ok := authErrors[lang]; !ok {
		lang = Default
	}
	if msg, ok := authErrors[lang][code]; ok {
		return msg
	}
	return authDefault[lang]
}

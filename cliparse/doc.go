// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and environment
variables.

CLI flags take precedence over environment variables. Secrets should come
from the environment (or a .env file loaded in main); the flag forms exist
for development convenience only.

Required settings:

  - JWT_SECRET (--jwt-secret): signing secret for session and captcha tokens

Optional settings:

  - PORT (-p): server port (default: 8000)
  - DATABASE_URL (-d): connection string or sqlite path (default: ./data/antimoltbook.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPLOAD_DIR (--uploads): media storage directory (default: ./uploads)
  - ACCESS_TOKEN_EXPIRE_MINUTES (default: 30)
  - REFRESH_TOKEN_EXPIRE_DAYS (default: 7)
  - CAPTCHA_TOKEN_EXPIRE_MINUTES (default: 5)
  - CAPTCHA_REQUIRED: "true" to make post writes demand a proof token
*/
package cliparse

// Package httpclient provides a small HTTP client with bearer or API key
// authentication, status classification and optional retry.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://127.0.0.1:27123",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth(key),
//	    Retry:   &policy,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodPut,
//	    Path:    "/vault/" + url.PathEscape(name),
//	    Body:    []byte(markdown),
//	    Headers: map[string]string{"Content-Type": "text/markdown"},
//	})
//
// Non-2xx replies come back as *Error together with the Response so the
// caller can surface the body. ToAppError maps them onto the module's
// error taxonomy.
package httpclient

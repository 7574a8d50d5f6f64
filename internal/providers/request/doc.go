/*
Package request wraps the callback-style host network primitive into a
future that settles exactly once.

A Requester carries defaults (2000 ms timeout, a version header, GET, json)
that caller options override key by key. Header maps are merged, so a caller
header replaces only the default of the same name.

	r := request.New(network, request.WithVersion("1.4.0"))

	future := r.Submit("https://api.example.com/items", request.Options{
		Timeout: 5 * time.Second,
	}, nil)
	res, err := future.Await(ctx)

Non-2xx responses reject with *StatusError carrying the full result;
transport failures reject with *NetworkError wrapping the cause. A caller
supplied *Handle is bound to the in-flight call so Abort cancels it.
*/
package request
